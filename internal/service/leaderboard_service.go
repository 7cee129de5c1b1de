package service

import (
	"context"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/repository"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardKey       = "leaderboard:xp"
	leaderboardTTL       = 5 * time.Minute
	leaderboardCacheSize = 100
)

type XpRanker interface {
	TopByXp(limit int) ([]repository.UserXpTotal, error)
}

type LeaderboardUserSource interface {
	FindByIDs(ids []uint) ([]model.User, error)
}

// LeaderboardService XP排行榜。Redis有序集合做读侧缓存，
// 过期后从XP流水聚合重建；Redis不可用时直接走库
type LeaderboardService struct {
	XpRepo   XpRanker
	UserRepo LeaderboardUserSource
	Redis    *redis.Client
	Log      *zap.Logger
}

func NewLeaderboardService(xpRepo XpRanker, userRepo LeaderboardUserSource, rdb *redis.Client, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		XpRepo:   xpRepo,
		UserRepo: userRepo,
		Redis:    rdb,
		Log:      log,
	}
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  uint   `json:"userId"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar,omitempty"`
	TotalXp int64  `json:"totalXp"`
}

func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > leaderboardCacheSize {
		limit = 10
	}

	rows := s.fromCache(ctx, limit)
	if rows == nil {
		// 重建时固定缓存前N名，后续更大limit的请求也能命中
		full, err := s.XpRepo.TopByXp(leaderboardCacheSize)
		if err != nil {
			return nil, err
		}
		s.rebuildCache(ctx, full)
		rows = full
		if len(rows) > limit {
			rows = rows[:limit]
		}
	}

	return s.decorate(rows)
}

// fromCache 读Redis有序集合，未命中或出错返回nil走库
func (s *LeaderboardService) fromCache(ctx context.Context, limit int) []repository.UserXpTotal {
	if s.Redis == nil {
		return nil
	}

	members, err := s.Redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil || len(members) == 0 {
		if err != nil && err != redis.Nil {
			s.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
		return nil
	}

	rows := make([]repository.UserXpTotal, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		rows = append(rows, repository.UserXpTotal{
			UserID: uint(id),
			Total:  int64(m.Score),
		})
	}
	return rows
}

func (s *LeaderboardService) rebuildCache(ctx context.Context, rows []repository.UserXpTotal) {
	if s.Redis == nil || len(rows) == 0 {
		return
	}

	members := make([]*redis.Z, 0, len(rows))
	for _, row := range rows {
		members = append(members, &redis.Z{
			Score:  float64(row.Total),
			Member: strconv.FormatUint(uint64(row.UserID), 10),
		})
	}

	pipe := s.Redis.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	pipe.ZAdd(ctx, leaderboardKey, members...)
	pipe.Expire(ctx, leaderboardKey, leaderboardTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.Log.Warn("leaderboard cache rebuild failed", zap.Error(err))
	}
}

// decorate 补齐用户名和头像后按榜内顺序编排名次
func (s *LeaderboardService) decorate(rows []repository.UserXpTotal) ([]LeaderboardEntry, error) {
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}

	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entry := LeaderboardEntry{
			Rank:    i + 1,
			UserID:  row.UserID,
			TotalXp: row.Total,
		}
		if u, ok := byID[row.UserID]; ok {
			entry.Name = u.Name
			entry.Avatar = u.Avatar
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
