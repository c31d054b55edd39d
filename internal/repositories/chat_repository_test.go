package repositories_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"concierge/internal/infra"
	dbm "concierge/internal/models/db_models"
	"concierge/internal/repositories"
	"concierge/pkg/utils"
)

// openTestDB connects to TEST_POSTGRES_URL and applies migrations.
// Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	db, err := infra.InitPostgresql(dsn)
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(context.Background(), db))
	t.Cleanup(func() { infra.ClosePostgresql(db) })
	return db
}

func newSession(t *testing.T, repo repositories.ChatRepository, userID string) *dbm.ChatSession {
	t.Helper()
	s := &dbm.ChatSession{UserID: userID, Title: "Zurich Weekend"}
	require.NoError(t, repo.CreateSession(context.Background(), s))
	return s
}

func TestChatRepository_SessionsNewestFirst(t *testing.T) {
	repo := repositories.NewChatRepository(openTestDB(t))
	user := "repo-test-" + uuid.NewString()

	first := newSession(t, repo, user)
	second := newSession(t, repo, user)
	newSession(t, repo, "someone-else-"+uuid.NewString())

	sessions, err := repo.ListSessionsByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)
	assert.Equal(t, first.ID, sessions[1].ID)
}

func TestChatRepository_Ownership(t *testing.T) {
	repo := repositories.NewChatRepository(openTestDB(t))
	s := newSession(t, repo, "owner-"+uuid.NewString())

	got, err := repo.GetSessionForUser(context.Background(), s.ID, s.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Zurich Weekend", got.Title)

	_, err = repo.GetSessionForUser(context.Background(), s.ID, "intruder")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestChatRepository_TurnsAppendOnlyInOrder(t *testing.T) {
	repo := repositories.NewChatRepository(openTestDB(t))
	ctx := context.Background()
	s := newSession(t, repo, "turns-"+uuid.NewString())

	require.NoError(t, repo.AppendMessage(ctx, &dbm.ChatMessage{SessionID: s.ID, Sender: dbm.SenderUser, Content: "2 days in Zurich"}))
	require.NoError(t, repo.AppendMessage(ctx, &dbm.ChatMessage{
		SessionID: s.ID,
		Sender:    dbm.SenderAI,
		Content:   "Here is your 1-day itinerary.",
		Itinerary: datatypes.JSON(`[{"day":1,"title":"Zurich","activities":[]}]`),
	}))
	require.NoError(t, repo.AppendMessage(ctx, &dbm.ChatMessage{SessionID: s.ID, Sender: dbm.SenderUser, Content: "make it 2 days"}))

	all, err := repo.ListMessages(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2 days in Zurich", all[0].Content)
	assert.NotNil(t, all[1].ItineraryJSON())
	assert.Nil(t, all[0].ItineraryJSON())
	assert.Nil(t, all[0].RideJSON())

	recent, err := repo.ListRecentMessages(ctx, s.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, all[1].ID, recent[0].ID)
	assert.Equal(t, all[2].ID, recent[1].ID)
}

func TestChatRepository_AppendToMissingSession(t *testing.T) {
	repo := repositories.NewChatRepository(openTestDB(t))

	err := repo.AppendMessage(context.Background(), &dbm.ChatMessage{SessionID: uuid.New(), Sender: dbm.SenderUser, Content: "hi"})
	assert.Error(t, err)
}
