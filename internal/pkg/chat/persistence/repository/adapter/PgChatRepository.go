package adapter

import (
	"context"
	"errors"
	"time"

	chat "github.com/Kweldop/social-media-backend/internal/pkg/chat/application/domain"
	repository "github.com/Kweldop/social-media-backend/internal/pkg/chat/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes mapped to the domain taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, c chat.Conversation) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (created_at, pair_key, user_a, user_b)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, c.CreatedAt, c.PairKey, c.Participants[0], c.Participants[1]).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, chat.ErrConversationExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *PgChatRepository) GetConversationByID(ctx context.Context, id string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, created_at, pair_key, user_a, user_b
		FROM chat.conversation
		WHERE id = $1::uuid
	`, id)
	return scanConversation(row)
}

func (r *PgChatRepository) GetConversationByPairKey(ctx context.Context, pairKey string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, created_at, pair_key, user_a, user_b
		FROM chat.conversation
		WHERE pair_key = $1
	`, pairKey)
	return scanConversation(row)
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, body, created_at, status)
		VALUES ($1::uuid, $2, $3, $4, $5)
		RETURNING id::text
	`, m.ConversationID, m.SenderID, m.Text, m.CreatedAt, m.Status).Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Unresolvable conversation reference surfaces as an FK violation,
			// or as an invalid uuid literal (22P02) when the id is garbage.
			if pgErr.Code == pgForeignKeyViolation || pgErr.Code == "22P02" {
				return nil, chat.ErrConversationNotFound
			}
		}
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) MarkDelivered(ctx context.Context, messageID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET status = $2
		WHERE id = $1::uuid AND status = $3
	`, messageID, chat.StatusDelivered, chat.StatusSent)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}
	// Zero rows means either the message is already DELIVERED/SEEN (fine) or
	// it does not exist at all.
	var exists bool
	err = r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM chat.message WHERE id = $1::uuid)", messageID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return chat.ErrMessageNotFound
	}
	return nil
}

func (r *PgChatRepository) MarkSeen(ctx context.Context, messageID string) (time.Time, error) {
	if r == nil || r.pool == nil {
		return time.Time{}, errors.New("PgChatRepository: nil pool")
	}
	readAt := time.Now().UTC()
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET status = $2, read_at = $3
		WHERE id = $1::uuid
	`, messageID, chat.StatusSeen, readAt)
	if err != nil {
		return time.Time{}, err
	}
	if ct.RowsAffected() == 0 {
		return time.Time{}, chat.ErrMessageNotFound
	}
	return readAt, nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string, cursor *time.Time, limit int) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if limit <= 0 {
		limit = repository.DefaultPageSize
	}

	var (
		rows pgx.Rows
		err  error
	)
	if cursor != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT id::text, conversation_id::text, sender_id, body, created_at, status, read_at
			FROM chat.message
			WHERE conversation_id = $1::uuid AND created_at < $2
			ORDER BY created_at DESC
			LIMIT $3
		`, conversationID, *cursor, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id::text, conversation_id::text, sender_id, body, created_at, status, read_at
			FROM chat.message
			WHERE conversation_id = $1::uuid
			ORDER BY created_at DESC
			LIMIT $2
		`, conversationID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Text, &msg.CreatedAt, &msg.Status, &msg.ReadAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var (
		c            chat.Conversation
		userA, userB string
	)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.PairKey, &userA, &userB); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, chat.ErrConversationNotFound
		}
		return nil, err
	}
	c.Participants = []string{userA, userB}
	return &c, nil
}
