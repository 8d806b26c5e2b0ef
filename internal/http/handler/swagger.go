package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"

	"docexchange/docs"
)

// SwaggerUI serves the API docs with host and scheme taken from the request.
// defaultHost is used when the request carries no Host header.
func SwaggerUI(defaultHost string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		host, scheme := swaggerOrigin(c.Get(fiber.HeaderHost), c.Get(fiber.HeaderXForwardedProto), c.Protocol(), defaultHost)

		// SwaggerInfo outlives the request; header values are copied out of fasthttp's buffers.
		docs.SwaggerInfo.Host = utils.CopyString(host)
		docs.SwaggerInfo.Schemes = []string{utils.CopyString(scheme)}

		return swagger.HandlerDefault(c)
	}
}

func swaggerOrigin(host, forwardedProto, protocol, defaultHost string) (string, string) {
	scheme := protocol
	if forwardedProto != "" {
		scheme = strings.TrimSpace(strings.Split(forwardedProto, ",")[0])
	}
	if host == "" {
		host = defaultHost
	}
	return host, scheme
}
