package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/cardcraft/internal/database"
	"github.com/jask/cardcraft/internal/store"
)

// MaintenanceService houses destructive actions surfaced through the CLI.
type MaintenanceService struct {
	DB    *sql.DB // set for the sqlite store
	Store *store.Store
}

// Reset wipes every stored value. With a database every kv row goes and the
// file is vacuumed; the schema stays. Other backends drop the known keys.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		if s.Store == nil {
			return fmt.Errorf("maintenance: store not configured")
		}
		return s.Store.Clear(ctx)
	}
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv"); err != nil {
			return fmt.Errorf("reset kv: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
