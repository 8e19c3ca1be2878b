// Package unread maintains per-user unread message counters in Redis,
// keyed by (course, user). Counters are best-effort accounting on the
// broadcast path: a failure here never blocks message delivery.
package unread

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/coursekit/coursechat/internal/database"
	"github.com/redis/go-redis/v9"
)

type Store interface {
	RecordDelivery(ctx context.Context, courseId, senderId int) error
	Unread(ctx context.Context, courseId, userId int) (int, error)
	Reset(ctx context.Context, courseId, userId int) error
}

type RedisStore struct {
	log        *log.Logger
	client     *redis.Client
	db         database.CourseRepository
	counterTTL time.Duration
	rosterTTL  time.Duration
}

func NewRedisStore(logger *log.Logger, client *redis.Client, db database.CourseRepository, counterTTL, rosterTTL time.Duration) *RedisStore {
	return &RedisStore{
		log:        logger,
		client:     client,
		db:         db,
		counterTTL: counterTTL,
		rosterTTL:  rosterTTL,
	}
}

func unreadKey(courseId, userId int) string {
	return fmt.Sprintf("unread:%d:%d", courseId, userId)
}

func rosterKey(courseId int) string {
	return fmt.Sprintf("enrolled:%d", courseId)
}

// enrolledUsers resolves the enrolled-user roster for a course from the
// Redis set cache, refreshing it from the course repository on a miss.
// The roster decides whose counters are touched; it is never used for
// authorization, so staleness up to rosterTTL is acceptable.
func (s *RedisStore) enrolledUsers(ctx context.Context, courseId int) ([]int, error) {
	members, err := s.client.SMembers(ctx, rosterKey(courseId)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("roster cache read: %w", err)
	}

	if len(members) > 0 {
		userIds := make([]int, 0, len(members))
		for _, m := range members {
			id, err := strconv.Atoi(m)
			if err != nil {
				return nil, fmt.Errorf("corrupt roster entry %q: %w", m, err)
			}
			userIds = append(userIds, id)
		}
		return userIds, nil
	}

	userIds, err := s.db.ListEnrolledAccountIds(courseId)
	if err != nil {
		return nil, fmt.Errorf("list enrolled accounts: %w", err)
	}

	if len(userIds) > 0 {
		vals := make([]interface{}, len(userIds))
		for i, id := range userIds {
			vals[i] = strconv.Itoa(id)
		}

		pipe := s.client.TxPipeline()
		pipe.SAdd(ctx, rosterKey(courseId), vals...)
		pipe.Expire(ctx, rosterKey(courseId), s.rosterTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			// cache write failure is non-fatal, the roster is already in hand
			s.log.Printf("roster cache write for course %d: %v", courseId, err)
		}
	}

	return userIds, nil
}

// RecordDelivery increments the unread counter of every enrolled user
// except the sender and refreshes each counter's retention window. All
// increments for one message go out in a single pipeline; Redis
// serializes INCR per key, so concurrent broadcasts never lose updates.
func (s *RedisStore) RecordDelivery(ctx context.Context, courseId, senderId int) error {
	userIds, err := s.enrolledUsers(ctx, courseId)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	var pending int
	for _, userId := range userIds {
		if userId == senderId {
			continue
		}
		key := unreadKey(courseId, userId)
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.counterTTL)
		pending++
	}

	if pending == 0 {
		return nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment unread counters: %w", err)
	}

	return nil
}

// Unread returns the current counter for (course, user). An absent key
// reads as zero.
func (s *RedisStore) Unread(ctx context.Context, courseId, userId int) (int, error) {
	count, err := s.client.Get(ctx, unreadKey(courseId, userId)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get unread counter: %w", err)
	}

	return count, nil
}

// Reset deletes the counter for (course, user). Resetting an absent
// counter is a no-op.
func (s *RedisStore) Reset(ctx context.Context, courseId, userId int) error {
	if err := s.client.Del(ctx, unreadKey(courseId, userId)).Err(); err != nil {
		return fmt.Errorf("reset unread counter: %w", err)
	}

	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
