package validate_test

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/devburger/pkg/validate"
)

var signup = validate.Schema{
	{Name: "name", Required: true, Kind: validate.String},
	{Name: "email", Required: true, Kind: validate.String, Rules: "email"},
	{Name: "password", Required: true, Kind: validate.String, Rules: "min=6"},
	{Name: "admin", Kind: validate.Boolean},
}

var order = validate.Schema{
	{Name: "products", Required: true, Kind: validate.Array, Items: validate.Schema{
		{Name: "id", Required: true, Kind: validate.Integer},
		{Name: "quantity", Required: true, Kind: validate.Integer, Rules: "gte=1"},
	}},
}

func TestValidInput(t *testing.T) {
	errs := signup.Check(validate.Values{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "123456",
		"admin":    true,
	})
	assert.Empty(t, errs)
	assert.NoError(t, signup.Validate(validate.Values{"name": "Ana", "email": "ana@example.com", "password": "123456"}))
}

func TestMissingFieldsAreAllReported(t *testing.T) {
	errs := signup.Check(validate.Values{"email": "ana@example.com"})

	assert.Len(t, errs, 2)
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The password field is required.", errs["password"])
}

func TestBlankStringCountsAsMissing(t *testing.T) {
	errs := signup.Check(validate.Values{"name": "  ", "email": "ana@example.com", "password": "123456"})
	assert.Contains(t, errs, "name")
}

func TestRulesAndKinds(t *testing.T) {
	errs := signup.Check(validate.Values{
		"name":     42,
		"email":    "not-an-email",
		"password": "123",
		"admin":    "maybe",
	})

	assert.Equal(t, "The name must be a string.", errs["name"])
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
	assert.Equal(t, "The password must be at least 6 characters.", errs["password"])
	assert.Equal(t, "The admin field must be true or false.", errs["admin"])
}

func TestFormStringsAreCoerced(t *testing.T) {
	schema := validate.Schema{
		{Name: "price", Required: true, Kind: validate.Integer, Rules: "gte=0"},
		{Name: "offer", Kind: validate.Boolean},
	}

	assert.Empty(t, schema.Check(validate.Values{"price": "1200", "offer": "true"}))

	errs := schema.Check(validate.Values{"price": "12.5"})
	assert.Equal(t, "The price field must be an integer.", errs["price"])

	errs = schema.Check(validate.Values{"price": "-3"})
	assert.Equal(t, "The price must be greater than or equal to 0.", errs["price"])

	errs = schema.Check(validate.Values{"price": "abc", "offer": "yes"})
	assert.Equal(t, "The price field must be an integer.", errs["price"])
	assert.Equal(t, "The offer field must be true or false.", errs["offer"])
}

func TestNestedArrayItems(t *testing.T) {
	var body validate.Values
	require.NoError(t, json.Unmarshal([]byte(`{"products":[{"id":1,"quantity":2},{"quantity":0},"x"]}`), &body))

	errs := order.Check(body)

	assert.Len(t, errs, 3)
	assert.Equal(t, "The products[1].id field is required.", errs["products[1].id"])
	assert.Equal(t, "The products[1].quantity must be greater than or equal to 1.", errs["products[1].quantity"])
	assert.Equal(t, "The products[2] must be an object.", errs["products[2]"])
}

func TestArrayKind(t *testing.T) {
	errs := order.Check(validate.Values{"products": "nope"})
	assert.Equal(t, "The products must be an array.", errs["products"])
}

func TestFileKind(t *testing.T) {
	schema := validate.Schema{{Name: "file", Required: true, Kind: validate.File}}

	assert.Contains(t, schema.Check(validate.Values{}), "file")
	assert.Contains(t, schema.Check(validate.Values{"file": "text"}), "file")
	assert.Empty(t, schema.Check(validate.Values{"file": &multipart.FileHeader{Filename: "a.png"}}))
}

func TestInRuleKeepsCommas(t *testing.T) {
	schema := validate.Schema{{Name: "status", Required: true, Kind: validate.String, Rules: "in=open,closed,min=2"}}

	assert.Empty(t, schema.Check(validate.Values{"status": "closed"}))
	assert.Equal(t, "The selected status is invalid.", schema.Check(validate.Values{"status": "other"})["status"])
}

func TestErrorType(t *testing.T) {
	err := signup.Validate(validate.Values{})
	require.Error(t, err)

	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Equal(t, "validation failed: email, name, password", err.Error())
}

func TestValuesAccessors(t *testing.T) {
	var body validate.Values
	require.NoError(t, json.Unmarshal([]byte(`{"name":" Ana ","price":"1500","offer":"1","products":[{"id":3}]}`), &body))

	assert.True(t, body.Has("name"))
	assert.False(t, body.Has("missing"))
	assert.Equal(t, "Ana", body.String("name"))
	assert.Equal(t, int64(1500), body.Int64("price"))
	assert.True(t, body.Bool("offer"))
	require.Len(t, body.Items("products"), 1)
	assert.Equal(t, int64(3), body.Items("products")[0].Int64("id"))
}
