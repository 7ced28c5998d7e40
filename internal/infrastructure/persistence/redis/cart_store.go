package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/readingroom/internal/domain/cart"
	apperrors "github.com/xiebiao/readingroom/pkg/errors"
)

// CartStore 购物车存储
// 数据结构: Hash cart:{userID},field为bookID,value为数量;每次写入刷新TTL
type CartStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCartStore 创建购物车存储
func NewCartStore(client redis.Cmdable, ttl time.Duration) *CartStore {
	return &CartStore{client: client, ttl: ttl}
}

var _ cart.Store = (*CartStore)(nil)

func cartKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (s *CartStore) Load(ctx context.Context, userID uint) (map[uint]int, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "读取购物车失败")
	}

	items := make(map[uint]int, len(fields))
	for field, value := range fields {
		bookID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		items[uint(bookID)] = qty
	}
	return items, nil
}

func (s *CartStore) Put(ctx context.Context, userID, bookID uint, qty int) error {
	key := cartKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.FormatUint(uint64(bookID), 10), qty)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "保存购物车失败")
	}
	return nil
}

func (s *CartStore) Remove(ctx context.Context, userID, bookID uint) (bool, error) {
	n, err := s.client.HDel(ctx, cartKey(userID), strconv.FormatUint(uint64(bookID), 10)).Result()
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "删除购物车条目失败")
	}
	return n > 0, nil
}

func (s *CartStore) Clear(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "清空购物车失败")
	}
	return nil
}
