package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// WSUpgrade exige upgrade websocket y un token válido. El navegador no puede enviar
// Authorization en el handshake, así que también se acepta ?token=.
func WSUpgrade(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		token := c.Query("token")
		if token == "" {
			return AuthMiddleware(jwtSecret)(c)
		}
		userID, role, err := jwt.Parse(jwtSecret, token)
		if err != nil || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// WSStream registra la conexión en el hub y la mantiene hasta que el cliente se desconecte.
// Los mensajes entrantes se ignoran.
func WSStream(hub *notify.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		hub.Register(conn)
		defer hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
