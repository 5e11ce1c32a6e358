package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/artswap-api/internal/models"
)

func newTradeMock(t *testing.T) (pgxmock.PgxPoolIface, *TradeRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewTradeRepository(mock)
}

// resolveReturning описывает строку, которую возвращает условное обновление trades
func resolveReturning(senderID, receiverID, senderArtID, receiverArtID uuid.UUID) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"sender_id", "receiver_id", "sender_art_id", "receiver_art_id"}).
		AddRow(senderID, receiverID, senderArtID, receiverArtID)
}

func TestResolve_AcceptedSwapsOwnership(t *testing.T) {
	mock, repo := newTradeMock(t)

	tradeID := uuid.New()
	sender, receiver := uuid.New(), uuid.New()
	senderArt, receiverArt := uuid.New(), uuid.New()

	mock.ExpectBegin()
	// Обновление условное: только из статуса pending
	mock.ExpectQuery(`UPDATE trades\s+SET status = \$1, updated_at = NOW\(\)\s+WHERE id = \$2 AND status = 'pending'`).
		WithArgs(models.TradeStatusAccepted, tradeID).
		WillReturnRows(resolveReturning(sender, receiver, senderArt, receiverArt))
	// Работа отправителя уходит получателю, прежний владелец запоминается
	mock.ExpectExec(`UPDATE art_pieces\s+SET original_creator_id = COALESCE\(original_creator_id, user_id\)`).
		WithArgs(receiver, senderArt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	// Работа получателя уходит отправителю
	mock.ExpectExec(`UPDATE art_pieces\s+SET original_creator_id = COALESCE\(original_creator_id, user_id\)`).
		WithArgs(sender, receiverArt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Resolve(context.Background(), tradeID, models.TradeStatusAccepted))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_RejectedKeepsOwnership(t *testing.T) {
	mock, repo := newTradeMock(t)

	tradeID := uuid.New()
	sender, receiver := uuid.New(), uuid.New()
	senderArt, receiverArt := uuid.New(), uuid.New()

	// При отклонении art_pieces не трогаются: любое обновление работ
	// было бы неожиданным запросом и провалило бы тест
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE trades`).
		WithArgs(models.TradeStatusRejected, tradeID).
		WillReturnRows(resolveReturning(sender, receiver, senderArt, receiverArt))
	mock.ExpectCommit()

	require.NoError(t, repo.Resolve(context.Background(), tradeID, models.TradeStatusRejected))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_AlreadyResolved(t *testing.T) {
	mock, repo := newTradeMock(t)

	tradeID := uuid.New()

	// Ноль строк от условного обновления: предложение уже не pending
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE trades`).
		WithArgs(models.TradeStatusAccepted, tradeID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Resolve(context.Background(), tradeID, models.TradeStatusAccepted)
	require.ErrorIs(t, err, ErrNotPending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_RejectsNonTerminalStatus(t *testing.T) {
	mock, repo := newTradeMock(t)

	err := repo.Resolve(context.Background(), uuid.New(), models.TradeStatusPending)
	require.Error(t, err)

	// До базы данных дело не дошло
	require.NoError(t, mock.ExpectationsWereMet())
}
