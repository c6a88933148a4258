package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/apierror"
	"github.com/say-lem/Ventree-Backend-sub001/internal/infra"
	"github.com/say-lem/Ventree-Backend-sub001/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the push gateway breaker state
// and queue backlogs; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		dlq := map[string]int64{}
		for _, q := range []string{worker.QueueNotify, worker.QueueAudit, worker.QueueReceipt} {
			n, err := worker.DLQLength(ctx, rdb, q)
			if err != nil {
				n = -1
			}
			dlq[q] = n
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":           status == http.StatusOK,
			"db":           dbStatus,
			"redis":        redisStatus,
			"push_gateway": cb.State().String(),
			"dlq":          dlq,
		})
	}
}

// PeekDLQ godoc
// @Summary      Inspect a dead letter queue
// @Description  Owner only. Returns the newest parked jobs of one queue without consuming them.
// @Tags         ops
// @Produce      json
// @Security     BearerAuth
// @Param        queue path  string true  "Queue name, e.g. jobs:receipt"
// @Param        limit query int    false "Entries to return (default 10)"
// @Success      200 {array} worker.DLQEntry
// @Router       /v1/ops/dlq/{queue} [get]
func PeekDLQ(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		queue := c.Param("queue")
		if queue == "" {
			c.JSON(http.StatusBadRequest, apierror.New("queue is required"))
			return
		}
		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

		entries, err := worker.PeekDLQ(c.Request.Context(), rdb, queue, limit)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
