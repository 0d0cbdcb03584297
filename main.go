package main

import (
	"context"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/app"
)

// @title           ShiftBuddy API
// @version         1.0
// @description     ShiftBuddy provides authentication, OTP, job board and notification APIs for student freelancers.
// @termsOfService  https://shiftbuddy.app/terms
// @contact.name    Contact Support
// @contact.url     https://shiftbuddy.app/contact
// @contact.email   support@shiftbuddy.app
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @server          https://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
