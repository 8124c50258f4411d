package queue

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultAvgServiceMinutes is used whenever no per-department figure
// is configured.
const DefaultAvgServiceMinutes = 15

// ServiceTimes supplies the average minutes one citizen takes at the
// counter, per department. The Position estimator multiplies rank by
// this figure.
type ServiceTimes interface {
	AverageServiceMinutes(ctx context.Context, officeID, departmentID string) int
}

// StaticServiceTimes always answers the same figure. Used as the
// fallback and in tests.
type StaticServiceTimes int

func (m StaticServiceTimes) AverageServiceMinutes(context.Context, string, string) int {
	if m <= 0 {
		return DefaultAvgServiceMinutes
	}
	return int(m)
}

// DBServiceTimes reads avg_service_minutes from the departments table,
// with a short Redis cache in front so position polling does not hit
// MySQL per request.
type DBServiceTimes struct {
	DB    *sql.DB
	Redis *redis.Client
	TTL   time.Duration
}

func (d *DBServiceTimes) AverageServiceMinutes(ctx context.Context, officeID, departmentID string) int {
	cacheKey := fmt.Sprintf("svc_minutes:%s:%s", officeID, departmentID)

	if d.Redis != nil {
		if cached, err := d.Redis.Get(ctx, cacheKey).Result(); err == nil {
			if minutes, err := strconv.Atoi(cached); err == nil && minutes > 0 {
				return minutes
			}
		}
	}

	var minutes int
	err := d.DB.QueryRowContext(ctx, `
		SELECT avg_service_minutes FROM departments
		WHERE id = ? AND office_id = ?
	`, departmentID, officeID).Scan(&minutes)

	if err != nil || minutes <= 0 {
		if err != nil && err != sql.ErrNoRows {
			log.Printf("[servicetimes] lookup %s/%s: %v", officeID, departmentID, err)
		}
		return DefaultAvgServiceMinutes
	}

	if d.Redis != nil {
		ttl := d.TTL
		if ttl == 0 {
			ttl = 5 * time.Minute
		}
		_ = d.Redis.Set(ctx, cacheKey, strconv.Itoa(minutes), ttl).Err()
	}
	return minutes
}
