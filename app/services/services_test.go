package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/app/repositories"
	"github.com/shashiranjanraj/devburger/pkg/auth"
	"github.com/shashiranjanraj/devburger/pkg/events"
	"github.com/shashiranjanraj/devburger/pkg/payment"
	"github.com/shashiranjanraj/devburger/pkg/testkit"
)

// fakeImages names uploads after their filename and remembers deletions.
type fakeImages struct {
	deleted []string
	err     error
}

func (f *fakeImages) Save(_ context.Context, fh *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "stored-" + fh.Filename, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

// memOrders is an in-memory OrderStore.
type memOrders struct {
	orders []models.Order
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) All(context.Context) ([]models.Order, error) { return m.orders, nil }

func (m *memOrders) UpdateStatus(_ context.Context, id, status string) error {
	for i := range m.orders {
		if m.orders[i].ID.Hex() == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return repositories.ErrOrderNotFound
}

// insertFirst makes the next create on table lose a race: the given row is
// inserted in the same transaction just before GORM's own insert runs.
func insertFirst(t *testing.T, db *gorm.DB, table, query string, args ...any) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:insert_first_"+table, func(tx *gorm.DB) {
		if fired || tx.Error != nil || tx.Statement.Table != table {
			return
		}
		fired = true
		if _, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context, query, args...); err != nil {
			_ = tx.AddError(err)
		}
	})
	require.NoError(t, err)
}

func upload(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewUserRepository(testkit.NewDB(t))
	reg := NewUserService(users)
	sessions := NewSessionService(users, auth.NewTokenService("secret", time.Hour))

	user, err := reg.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Empty(t, user.Password)

	_, err = reg.Register(ctx, RegisterInput{Name: "Other", Email: "ana@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)

	s, err := sessions.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	id, err := auth.NewTokenService("secret", time.Hour).Verify(s.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "Ana", id.UserName)

	_, err = sessions.Login(ctx, "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = sessions.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCategoryRenameRules(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	images := &fakeImages{}
	svc := NewCategoryService(repositories.NewCategoryRepository(db, nil, time.Minute), images)

	burgers, err := svc.Create(ctx, "Burgers", upload("b.png"))
	require.NoError(t, err)
	assert.Equal(t, "stored-b.png", burgers.Path)
	drinks, err := svc.Create(ctx, "Drinks", upload("d.png"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Burgers", upload("again.png"))
	assert.ErrorIs(t, err, ErrConflict)

	taken := "Drinks"
	_, err = svc.Update(ctx, burgers.ID, CategoryUpdate{Name: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	own := "Drinks"
	_, err = svc.Update(ctx, drinks.ID, CategoryUpdate{Name: &own})
	assert.NoError(t, err)

	updated, err := svc.Update(ctx, burgers.ID, CategoryUpdate{Image: upload("new.png")})
	require.NoError(t, err)
	assert.Equal(t, "Burgers", updated.Name)
	assert.Equal(t, "stored-new.png", updated.Path)
	assert.Equal(t, []string{"stored-b.png"}, images.deleted)

	_, err = svc.Update(ctx, 999, CategoryUpdate{Name: &own})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductCreateAndPartialUpdate(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	images := &fakeImages{}
	categories := repositories.NewCategoryRepository(db, nil, time.Minute)
	products := repositories.NewProductRepository(db, nil, time.Minute)
	cats := NewCategoryService(categories, images)
	svc := NewProductService(products, categories, images)

	c, err := cats.Create(ctx, "Burgers", upload("c.png"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, ProductInput{Name: "X", Price: 100, CategoryID: 42, Image: upload("x.png")})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	p, err := svc.Create(ctx, ProductInput{Name: "X-Burger", Price: 2990, CategoryID: c.ID, Offer: true, Image: upload("x.png")})
	require.NoError(t, err)
	assert.Equal(t, "Burgers", p.Category.Name)

	price := int64(3490)
	updated, err := svc.Update(ctx, p.ID, ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "X-Burger", updated.Name)
	assert.Equal(t, int64(3490), updated.Price)
	assert.True(t, updated.Offer)
	assert.Equal(t, "stored-x.png", updated.Path)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "Burgers", updated.Category.Name)

	_, err = svc.Update(ctx, 999, ProductUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrProductNotFound)

	images.err = errors.New("bad image")
	_, err = svc.Create(ctx, ProductInput{Name: "Y", Price: 1, CategoryID: c.ID, Image: upload("y.png")})
	assert.Error(t, err)
}

func TestPlaceOrderUsesCatalogPrices(t *testing.T) {
	ctx := context.Background()
	db := testkit.NewDB(t)
	images := &fakeImages{}
	categories := repositories.NewCategoryRepository(db, nil, time.Minute)
	products := repositories.NewProductRepository(db, nil, time.Minute)
	c, err := NewCategoryService(categories, images).Create(ctx, "Burgers", upload("c.png"))
	require.NoError(t, err)
	p, err := NewProductService(products, categories, images).Create(ctx, ProductInput{
		Name: "X-Burger", Price: 2990, CategoryID: c.ID, Image: upload("x.png"),
	})
	require.NoError(t, err)

	store := &memOrders{}
	pub := &events.Recorder{}
	svc := NewOrderService(products, store, pub, "http://localhost:3001")
	who := auth.Identity{UserID: "u1", UserName: "Ana"}

	order, err := svc.Place(ctx, who, []OrderLine{{ProductID: p.ID, Quantity: 2}, {ProductID: 999, Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, order.Products, 1)
	assert.Equal(t, int64(2990), order.Products[0].Price)
	assert.Equal(t, int64(2), order.Products[0].Quantity)
	assert.Equal(t, "Burgers", order.Products[0].Category)
	assert.Equal(t, "http://localhost:3001/product-file/stored-x.png", order.Products[0].URL)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, "Ana", order.User.Name)
	require.Len(t, pub.Events, 1)
	assert.Equal(t, events.SubjectOrderPlaced, pub.Events[0].Subject)

	_, err = svc.Place(ctx, who, []OrderLine{{ProductID: 999, Quantity: 1}})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	require.NoError(t, svc.UpdateStatus(ctx, order.ID.Hex(), "Delivered"))
	assert.Equal(t, "Delivered", store.orders[0].Status)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "nope", "Delivered"), ErrOrderNotFound)

	pub.Err = errors.New("nats down")
	_, err = svc.Place(ctx, who, []OrderLine{{ProductID: p.ID, Quantity: 1}})
	assert.NoError(t, err)
}

func TestCreateIntentSumsClientPrices(t *testing.T) {
	gw := &payment.Fake{}
	svc := NewPaymentService(gw, "brl")

	intent, err := svc.CreateIntent(context.Background(), []payment.Line{
		{Price: decimal.RequireFromString("29.90"), Quantity: 2},
		{Price: decimal.RequireFromString("5"), Quantity: 1},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, intent.ClientSecret)
	assert.Equal(t, []int64{6480}, gw.Amounts)

	gw.Err = errors.New("card_declined")
	_, err = svc.CreateIntent(context.Background(), nil)
	var ge *payment.GatewayError
	assert.ErrorAs(t, err, &ge)
}

func TestUniqueIndexViolationsAreConflicts(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("users", func(t *testing.T) {
		db := testkit.NewDB(t)
		insertFirst(t, db, "users",
			"INSERT INTO users (id, name, email, password_hash, admin, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			"racer", "Racer", "ana@example.com", "x", false, now, now)

		_, err := NewUserService(repositories.NewUserRepository(db)).
			Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("categories", func(t *testing.T) {
		db := testkit.NewDB(t)
		insertFirst(t, db, "categories",
			"INSERT INTO categories (name, path, created_at, updated_at) VALUES (?, ?, ?, ?)",
			"Burgers", "racer.png", now, now)
		images := &fakeImages{}

		_, err := NewCategoryService(repositories.NewCategoryRepository(db, nil, time.Minute), images).
			Create(ctx, "Burgers", upload("b.png"))
		assert.ErrorIs(t, err, ErrCategoryTaken)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, []string{"stored-b.png"}, images.deleted)
	})
}
