// Package docs provides Swagger documentation for the API.
package docs

// @title Sky Chimp Newsletter API
// @version 1.0
// @description Email newsletter and client registry service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@skychimp.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
