package healthcheck

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DatabaseChecker checks GORM database connectivity
type DatabaseChecker struct {
	db *gorm.DB
}

// NewDatabaseChecker creates a database checker
func NewDatabaseChecker(db *gorm.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

// Check implements Checker
func (c *DatabaseChecker) Check(ctx context.Context) Check {
	started := time.Now()
	check := Check{Status: StatusHealthy, LastChecked: started}

	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	check.Duration = time.Since(started)
	return check
}

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a Redis checker
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Check implements Checker. A failing cache degrades the service rather
// than taking it down; responses are just computed fresh.
func (c *RedisChecker) Check(ctx context.Context) Check {
	started := time.Now()
	check := Check{Status: StatusHealthy, LastChecked: started}

	if err := c.client.Ping(ctx).Err(); err != nil {
		check.Status = StatusDegraded
		check.Message = err.Error()
	}
	check.Duration = time.Since(started)
	return check
}

// ModelAvailability is the slice of the predictor the checker needs.
type ModelAvailability interface {
	Available() bool
}

// ModelChecker reports whether the mood/energy model artifacts loaded.
// An unavailable model degrades the service: scoring continues on the
// heuristic path.
type ModelChecker struct {
	model ModelAvailability
}

// NewModelChecker creates a model checker
func NewModelChecker(model ModelAvailability) *ModelChecker {
	return &ModelChecker{model: model}
}

// Check implements Checker
func (c *ModelChecker) Check(ctx context.Context) Check {
	started := time.Now()
	check := Check{Status: StatusHealthy, LastChecked: started}

	if c.model == nil || !c.model.Available() {
		check.Status = StatusDegraded
		check.Message = "mood/energy model unavailable, heuristic scoring active"
	}
	check.Duration = time.Since(started)
	return check
}
