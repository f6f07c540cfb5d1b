package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/repository"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

var startTime = time.Now()

func HealthHandler(c *gin.Context) {
	utils.Success(c, gin.H{
		"status": "ok",
		"uptime": time.Since(startTime).String(),
	})
}

// StatsHandler reports process health plus tracker dead letters for
// operators. The dead-letter listing is best effort; journals may be
// disabled entirely.
func StatsHandler(c *gin.Context, store *services.SessionStore, deadLetters *repository.DeadLetterRepo) {
	stats := gin.H{
		"uptime":          time.Since(startTime).String(),
		"cpu_percent":     utils.GetCPUUsage(),
		"memory_percent":  utils.GetMemoryUsage(),
		"active_sessions": store.Count(),
	}

	if deadLetters != nil {
		entries, err := deadLetters.Recent(20)
		if err != nil {
			stats["dead_letters_error"] = err.Error()
		} else {
			stats["dead_letters"] = entries
		}
	}

	utils.Success(c, stats)
}
