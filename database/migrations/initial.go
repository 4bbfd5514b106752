// Package migrations holds the relational schema. Importing it registers
// every migration with pkg/migration.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/pkg/migration"
)

func init() {
	migration.Register("20241204201107_create_users_table", &CreateUsersTable{})
	migration.Register("20241210184614_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20241210194534_create_products_table", &CreateProductsTable{})
}

// -------- users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- products --------

// products.category_id references categories and is nulled when its
// category is deleted.
type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}
