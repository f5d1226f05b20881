package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache guarda resultados de avaliação de agenda e de retorno no Redis.
// Receiver nil é válido: todas as operações viram no-op, então o serviço
// funciona sem Redis configurado.
type Cache struct {
	rdb *redis.Client
}

func New(addr, password string) *Cache {
	if addr == "" {
		return nil
	}

	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeletePrefix remove todas as chaves com o prefixo dado (SCAN incremental,
// nunca KEYS).
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if c == nil {
		return nil
	}

	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Println("cache: delete prefix failed:", err)
		return err
	}
	return nil
}

// ===============================
// Chaves
// ===============================

func AgendaKey(doctorID uint, date string) string {
	return fmt.Sprintf("agenda:%d:%s", doctorID, date)
}

func FollowUpKey(patientID, doctorID uint, date string) string {
	return fmt.Sprintf("followup:%d:%d:%s", patientID, doctorID, date)
}

func FollowUpPrefix(patientID, doctorID uint) string {
	return fmt.Sprintf("followup:%d:%d:", patientID, doctorID)
}
