package handlers

// @title Church Portal API
// @version 1.0
// @description Member accounts, contact form, donations and directory records for the church portal

// @contact.name API Support
// @contact.email support@church-portal.org

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name identity
// @tag.description Sign-up, login and account management against the user pool

// @tag.name contact
// @tag.description Contact form delivery

// @tag.name payments
// @tag.description PayPal orders, subscriptions and webhooks

// @tag.name directory
// @tag.description Users directory records

// @tag.name admins
// @tag.description Administrator accounts
