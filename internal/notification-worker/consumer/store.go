package consumer

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Store persiste notificações de usuário no Postgres.
// Fire-and-forget do ponto de vista da liquidação: nada aqui participa das
// transações do ledger nem da liquidação.
type Store struct{ DB *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{DB: db} }

func (s *Store) Insert(ctx context.Context, userID, message string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, message, sender)
		VALUES ($1,$2,$3,'System')`,
		uuid.NewString(), userID, message)
	return err
}
