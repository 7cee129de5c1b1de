package service

import (
	"context"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeXpRanker struct {
	rows        []repository.UserXpTotal
	askedLimits []int
}

func (f *fakeXpRanker) TopByXp(limit int) ([]repository.UserXpTotal, error) {
	f.askedLimits = append(f.askedLimits, limit)
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

type fakeLeaderboardUsers struct {
	users []model.User
}

func (f *fakeLeaderboardUsers) FindByIDs(ids []uint) ([]model.User, error) {
	return f.users, nil
}

func newLeaderboardFixture(rows []repository.UserXpTotal, users []model.User) (*LeaderboardService, *fakeXpRanker) {
	ranker := &fakeXpRanker{rows: rows}
	// Redis置nil走降级路径，缓存行为只影响重建时向库侧要的条数
	svc := NewLeaderboardService(ranker, &fakeLeaderboardUsers{users: users}, nil, zap.NewNop())
	return svc, ranker
}

func TestLeaderboardTopDecoratesAndRanks(t *testing.T) {
	rows := []repository.UserXpTotal{
		{UserID: 2, Total: 300},
		{UserID: 1, Total: 150},
		{UserID: 9, Total: 40},
	}
	users := []model.User{
		{BaseModel: model.BaseModel{ID: 1}, Name: "Ana", Avatar: "a.png"},
		{BaseModel: model.BaseModel{ID: 2}, Name: "Bo"},
	}
	svc, _ := newLeaderboardFixture(rows, users)

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(2), entries[0].UserID)
	assert.Equal(t, "Bo", entries[0].Name)
	assert.Equal(t, int64(300), entries[0].TotalXp)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "a.png", entries[1].Avatar)

	// 榜内用户不存在时名次保留、名字留空
	assert.Equal(t, 3, entries[2].Rank)
	assert.Empty(t, entries[2].Name)
}

func TestLeaderboardRebuildFetchesFullCacheWindow(t *testing.T) {
	rows := []repository.UserXpTotal{
		{UserID: 1, Total: 500},
		{UserID: 2, Total: 400},
		{UserID: 3, Total: 300},
	}
	svc, ranker := newLeaderboardFixture(rows, nil)

	entries, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)

	// 小limit的请求也按固定窗口取榜，响应再按limit截断
	require.Equal(t, []int{leaderboardCacheSize}, ranker.askedLimits)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(1), entries[0].UserID)
	assert.Equal(t, uint(2), entries[1].UserID)
}

func TestLeaderboardLimitClamped(t *testing.T) {
	rows := make([]repository.UserXpTotal, 0, 30)
	for i := 1; i <= 30; i++ {
		rows = append(rows, repository.UserXpTotal{UserID: uint(i), Total: int64(1000 - i)})
	}

	svc, _ := newLeaderboardFixture(rows, nil)
	entries, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 10)

	svc, _ = newLeaderboardFixture(rows, nil)
	entries, err = svc.Top(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
