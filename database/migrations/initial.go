package migrations

import (
	"gorm.io/gorm"

	"github.com/eburutu/mart/app/models"
	"github.com/eburutu/mart/pkg/migration"
)

func init() {
	migration.Register("20250101000001_create_users_table", &tableMigration{table: "users", model: &models.User{}})
	migration.Register("20250101000002_create_seller_profiles_table", &tableMigration{table: "seller_profiles", model: &models.SellerProfile{}})
	migration.Register("20250101000003_create_categories_table", &tableMigration{table: "categories", model: &models.Category{}})
	migration.Register("20250101000004_create_products_table", &tableMigration{table: "products", model: &models.Product{}})
	migration.Register("20250101000005_create_product_images_table", &tableMigration{table: "product_images", model: &models.ProductImage{}})
	migration.Register("20250101000006_create_conversations_table", &tableMigration{table: "conversations", model: &models.Conversation{}})
	migration.Register("20250101000007_create_messages_table", &tableMigration{table: "messages", model: &models.Message{}})
}

// tableMigration creates one model's table and drops it on rollback.
type tableMigration struct {
	table string
	model interface{}
}

func (m *tableMigration) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *tableMigration) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.table)
}
