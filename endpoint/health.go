package endpoint

import (
	"context"
	"errors"
	"time"

	"github.com/ariebrainware/clinic-booking/middleware"
	"github.com/ariebrainware/clinic-booking/util"
	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 5 * time.Second

var errDatabaseUnavailable = errors.New("database is not configured")

// poolStats is the subset of sql.DBStats reported by the health check.
type poolStats struct {
	OpenConns int `json:"open_conns"`
	InUse     int `json:"in_use"`
	Idle      int `json:"idle"`
	MaxOpen   int `json:"max_open"`
}

// HealthCheck pings the database the request was bound to.
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  util.APIResponse
// @Failure      503  {object}  util.APIResponse
// @Router       /health [get]
func HealthCheck(c *gin.Context) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServiceUnavailable(c, util.APIErrorParams{Msg: "unhealthy", Err: errDatabaseUnavailable})
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		util.CallServiceUnavailable(c, util.APIErrorParams{Msg: "unhealthy", Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		util.CallServiceUnavailable(c, util.APIErrorParams{Msg: "unhealthy", Err: err})
		return
	}

	s := sqlDB.Stats()
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "healthy",
		Data: gin.H{"pool": poolStats{
			OpenConns: s.OpenConnections,
			InUse:     s.InUse,
			Idle:      s.Idle,
			MaxOpen:   s.MaxOpenConnections,
		}},
	})
}
