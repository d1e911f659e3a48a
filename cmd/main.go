// cmd/main.go
package main

import (
	"go-crop-api/app"
)

// @title           Go-Crop API
// @version         1.0
// @description     A crop case planning API with token-based authentication.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
