// Package mockapi is a local stand-in for the remote ENSEK test API:
// same routes, same bearer-token behavior, same confirmation-message
// grammar. It backs offline suite runs and the end-to-end tests.
package mockapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"enercheck/internal"
)

type fuelState struct {
	name      string
	orderName string
	unit      string
	price     float64
	stock     int
	remaining int
}

type Server struct {
	username string
	password string

	mu     sync.Mutex
	tokens map[string]struct{}
	fuels  map[int]*fuelState
	orders []internal.Order
}

func NewServer(username, password string) *Server {
	s := &Server{
		username: username,
		password: password,
		tokens:   map[string]struct{}{},
	}
	s.restock()
	return s
}

// restock resets per-fuel inventory to the remote API's defaults.
// Nuclear starts empty on purpose so the no-fuel path stays reachable;
// the order fuel names deliberately use a different vocabulary than the
// catalog, like the remote does.
func (s *Server) restock() {
	s.fuels = map[int]*fuelState{
		1: {name: "gas", orderName: "Gas", unit: "m³", price: 0.34, stock: 3000},
		2: {name: "nuclear", orderName: "Nuclear", unit: "MW", price: 1.64, stock: 0},
		3: {name: "electric", orderName: "Elec", unit: "kWh", price: 0.47, stock: 4322},
		4: {name: "oil", orderName: "Oil", unit: "Litres", price: 10.64, stock: 20},
	}
	for _, f := range s.fuels {
		f.remaining = f.stock
	}
}

func (s *Server) Engine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/ENSEK/login", s.login)

	authed := router.Group("/ENSEK")
	authed.Use(s.requireBearer())
	{
		authed.POST("/reset", s.reset)
		authed.PUT("/buy/:id/:quantity", s.buy)
		authed.GET("/orders", s.listOrders)
	}

	return router
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Username != s.username || req.Password != s.password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Username or password is invalid"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"access_token": token, "message": "Success"})
}

func (s *Server) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		s.mu.Lock()
		_, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) reset(c *gin.Context) {
	s.mu.Lock()
	s.restock()
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "Success"})
}

func (s *Server) buy(c *gin.Context) {
	energyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid energy id"})
		return
	}
	quantity, err := strconv.Atoi(c.Param("quantity"))
	if err != nil || quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantity"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fuel, ok := s.fuels[energyID]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Invalid energy id %d", energyID)})
		return
	}

	if fuel.remaining <= 0 {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("There is no %s fuel to purchase!", fuel.name)})
		return
	}

	// Remaining may go negative when the request exceeds stock; the
	// remote over-sells the same way and the suite treats negative
	// remaining as valid.
	fuel.remaining -= quantity
	cost := float64(quantity) * fuel.price
	orderID := uuid.NewString()

	s.orders = append(s.orders, internal.Order{
		ID:       orderID,
		Fuel:     fuel.orderName,
		Quantity: quantity,
		Time:     time.Now().UTC().Format(http.TimeFormat),
	})

	message := fmt.Sprintf("You have purchased %d %s at a cost of %v there are %d units remaining. Your order id is %s",
		quantity, fuel.unit, cost, fuel.remaining, orderID)
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (s *Server) listOrders(c *gin.Context) {
	s.mu.Lock()
	out := make([]internal.Order, len(s.orders))
	copy(out, s.orders)
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}
