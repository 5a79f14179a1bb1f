package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// CalendarTTL bounds the staleness a patient can observe on the
// 7-day calendar view.
const CalendarTTL = 60 * time.Second

// NewRedisClient connects and pings. A nil return means the service
// runs without caching.
func NewRedisClient(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Println("redis unavailable, calendar cache disabled:", err)
		return nil
	}
	return client
}

// CalendarCache is a read-through cache for the rendered weekly
// calendar payload. Keys carry the request day so entries anchored on
// yesterday's horizon expire naturally at midnight.
type CalendarCache struct {
	client *redis.Client
}

func NewCalendarCache(client *redis.Client) *CalendarCache {
	if client == nil {
		return nil
	}
	return &CalendarCache{client: client}
}

func key(doctorID uint, day string) string {
	return fmt.Sprintf("calendar:%d:%s", doctorID, day)
}

// Get returns the cached payload, or nil on miss or any redis error.
func (cc *CalendarCache) Get(ctx context.Context, doctorID uint, day string) []byte {
	if cc == nil {
		return nil
	}

	raw, err := cc.client.Get(ctx, key(doctorID, day)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Println("calendar cache get:", err)
		}
		return nil
	}
	return raw
}

func (cc *CalendarCache) Set(ctx context.Context, doctorID uint, day string, payload []byte) {
	if cc == nil {
		return
	}
	if err := cc.client.Set(ctx, key(doctorID, day), payload, CalendarTTL).Err(); err != nil {
		log.Println("calendar cache set:", err)
	}
}

// Invalidate drops every cached day for the doctor. Called after any
// write that changes slot occupancy or declared availability.
func (cc *CalendarCache) Invalidate(ctx context.Context, doctorID uint) {
	if cc == nil {
		return
	}

	pattern := fmt.Sprintf("calendar:%d:*", doctorID)
	iter := cc.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := cc.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Println("calendar cache invalidate:", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Println("calendar cache scan:", err)
	}
}
