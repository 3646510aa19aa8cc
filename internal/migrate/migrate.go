package migrate

import (
	"context"

	"storefront-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, uuid-ossp
	CreateChecks           bool // CHECK-constraint для целостности
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
	SeedSettings           bool // строка настроек id=1
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
		SeedSettings:           true,
	}
}

func MigrateStorefrontDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных витрины")

	if opt.CreateExtensions {
		if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
		if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			log.Error("Не удалось включить расширение uuid-ossp", zap.Error(err))
			return err
		}
	}

	log.Info("Создание таблиц")
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.ProductSize{},
		&models.Order{},
		&models.OrderItem{},
		&models.Invoice{},
		&models.Settings{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		if err := db.WithContext(ctx).Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated
BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("Не удалось создать триггер updated_at", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Статусы (храним TEXT)
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('ORDER_STATUS_PENDING','ORDER_STATUS_COD_PENDING','ORDER_STATUS_PENDING_VERIFICATION','ORDER_STATUS_PAID','ORDER_STATUS_SHIPPED','ORDER_STATUS_DELIVERED','ORDER_STATUS_CANCELLED'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для статусов", zap.Error(err))
			return err
		}

		if err := db.WithContext(ctx).Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_return_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_return_status_allowed
  CHECK (return_status IN ('RETURN_NONE','RETURN_PENDING','RETURN_APPROVED','RETURN_REJECTED'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для статусов возврата", zap.Error(err))
			return err
		}

		// Возврат существует только у доставленных (или уже отменённых) заказов
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_return_axis_legal;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_return_axis_legal
  CHECK (return_status = 'RETURN_NONE' OR status IN ('ORDER_STATUS_DELIVERED','ORDER_STATUS_CANCELLED'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для оси возврата", zap.Error(err))
			return err
		}

		// Количество > 0
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для количества", zap.Error(err))
			return err
		}

		// Остатки не бывают отрицательными
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative;
ALTER TABLE products
  ADD CONSTRAINT chk_products_stock_non_negative
  CHECK (stock >= 0);

ALTER TABLE products
  DROP CONSTRAINT IF EXISTS chk_products_stock_tracking_allowed;
ALTER TABLE products
  ADD CONSTRAINT chk_products_stock_tracking_allowed
  CHECK (stock_tracking IN ('STOCK_NONE','STOCK_SCALAR','STOCK_SIZED'));

ALTER TABLE product_sizes
  DROP CONSTRAINT IF EXISTS chk_product_sizes_stock_non_negative;
ALTER TABLE product_sizes
  ADD CONSTRAINT chk_product_sizes_stock_non_negative
  CHECK (stock >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для остатков", zap.Error(err))
			return err
		}

		// Последовательность инвойсов положительная
		if err := db.WithContext(ctx).Exec(`
ALTER TABLE invoices
  DROP CONSTRAINT IF EXISTS chk_invoices_seq_gt_zero;
ALTER TABLE invoices
  ADD CONSTRAINT chk_invoices_seq_gt_zero
  CHECK (seq > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для инвойсов", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		if err := db.WithContext(ctx).Exec(`
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_order_items_order') THEN
    ALTER TABLE order_items
      ADD CONSTRAINT fk_order_items_order
      FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
  END IF;
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_product_sizes_product') THEN
    ALTER TABLE product_sizes
      ADD CONSTRAINT fk_product_sizes_product
      FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
  END IF;
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_invoices_order') THEN
    ALTER TABLE invoices
      ADD CONSTRAINT fk_invoices_order
      FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
  END IF;
END $$;
`).Error; err != nil {
			log.Error("Не удалось создать внешние ключи", zap.Error(err))
			return err
		}
	}

	if opt.SeedSettings {
		if err := db.WithContext(ctx).Exec(`
INSERT INTO settings (id, ticker, contact_email, contact_phone, version, updated_at)
VALUES (1, '', '', '', 0, now())
ON CONFLICT (id) DO NOTHING;
`).Error; err != nil {
			log.Error("Не удалось создать строку настроек", zap.Error(err))
			return err
		}
	}

	log.Info("Миграция завершена")
	return nil
}
