// Package main Checkout API
//
//	@title						Checkout API
//	@version					1.0
//	@description				Hosted checkout payments through the Nets Easy gateway
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Back-office bearer token. Format: "Bearer {token}"
//
//	@tag.name					Payment
//	@tag.description			Storefront checkout
//
//	@tag.name					BackOffice
//	@tag.description			Payment lifecycle operations for operators
//
//	@tag.name					Webhook
//	@tag.description			Gateway notifications
package main
