// Package config loads fixture configurations: builder settings, skipped
// properties, fixed property and name values, and the SQL saver location.
//
// A configuration is YAML, optionally overridden by environment variables
// (read from the process and from .env files):
//
//	BEANFORGE_CONFIG     path of the YAML file when none is given
//	BEANFORGE_RANDOM     use random default values (true/false)
//	BEANFORGE_SEED       seed of the random values, implies BEANFORGE_RANDOM
//	BEANFORGE_LOG_LEVEL  debug, info, warn or error
//	BEANFORGE_DRIVER     sqlite, postgres or mysql
//	BEANFORGE_DSN        data source name of the SQL saver
//
// Type names are resolved through an introspect.Catalog, so "store.Order"
// and "bean-forge/store.Order" both work.
package config
