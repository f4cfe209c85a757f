package main

import "github.com/spf13/viper"

// newConfig returns a Viper instance with every setting defaulted and
// environment overrides enabled.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("STORE_BACKEND", "firestore") // firestore | memory
	v.SetDefault("FIRESTORE_PROJECT_ID", "")
	v.SetDefault("ORDERS_STRATEGY", "fanout") // fanout | collection_group
	v.SetDefault("CATALOG_CASCADE_DELETE", false)
	v.SetDefault("DATABASE_DRIVER", "postgres") // postgres | sqlite
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=storeadmin port=5432 sslmode=disable")
	v.SetDefault("RABBITMQ_URL", "") // empty disables order status events
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.AutomaticEnv()
	return v
}
