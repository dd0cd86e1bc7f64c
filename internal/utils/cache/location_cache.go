package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"foodify/domain"

	"github.com/redis/go-redis/v9"
)

const (
	agentGeoKey      = "geo:agents"
	locationKeyTTL   = 15 * time.Minute
	locationKeyShape = "order:%s:agent-location"
)

func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

type (
	// LocationCache keeps the latest reported agent position per in-transit
	// order for cheap tracking reads. The order row stays the source of
	// truth; a cache miss falls back to it.
	LocationCache interface {
		SetAgentLocation(ctx context.Context, orderID, agentID string, location domain.AgentLocation) error
		GetAgentLocation(ctx context.Context, orderID string) (*domain.AgentLocation, error)
	}

	redisLocationCache struct {
		client *redis.Client
	}
)

func NewLocationCache(client *redis.Client) LocationCache {
	return &redisLocationCache{client: client}
}

func (c *redisLocationCache) SetAgentLocation(ctx context.Context, orderID, agentID string, location domain.AgentLocation) error {
	payload, err := json.Marshal(location)
	if err != nil {
		return err
	}

	key := fmt.Sprintf(locationKeyShape, orderID)
	if err := c.client.Set(ctx, key, payload, locationKeyTTL).Err(); err != nil {
		return err
	}

	return c.client.GeoAdd(ctx, agentGeoKey, &redis.GeoLocation{
		Name:      agentID,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
	}).Err()
}

func (c *redisLocationCache) GetAgentLocation(ctx context.Context, orderID string) (*domain.AgentLocation, error) {
	key := fmt.Sprintf(locationKeyShape, orderID)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var location domain.AgentLocation
	if err := json.Unmarshal(payload, &location); err != nil {
		return nil, err
	}
	return &location, nil
}
