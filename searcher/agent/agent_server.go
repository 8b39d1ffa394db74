package agent

import (
	"chainreaction/game"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// MoveRequest carries a board in the text format, one row per line, and the
// side to move.
type MoveRequest struct {
	Board  []string `json:"board"`
	Player string   `json:"player"`
}

type MoveResponse struct {
	Found bool      `json:"found"`
	Move  game.Move `json:"move"`
	Score float64   `json:"score"`
	Depth int       `json:"depth"`
	Nodes int       `json:"nodes"`
}

// NewRouter serves a on /findmove. Boards must be rows x cols; zero infers
// the dimensions from the request.
func NewRouter(a Agent, rows, cols int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/heuristics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"heuristics": game.HeuristicNames()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/findmove", FindMoveHandler(a, rows, cols))

	return r
}

func FindMoveHandler(a Agent, rows, cols int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "board and player required"})
			return
		}
		player, err := game.ParsePlayer(req.Player)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		grid, err := game.ParseLines(req.Board, rows, cols)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		state := game.Resume(grid, player)
		move, metric, err := a.FindMove(c.Request.Context(), state)
		switch {
		case errors.Is(err, game.ErrNoLegalMoves):
			c.JSON(http.StatusOK, MoveResponse{Found: false})
			return
		case err != nil:
			log.Error().Err(err).Msg("failed to find move")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, MoveResponse{
			Found: true,
			Move:  move,
			Score: metric.Score,
			Depth: metric.CompletedDepth,
			Nodes: metric.Nodes,
		})
	}
}
