// Package config provides configuration parsing for featureroutes projects.
//
// The configuration is stored in featureroutes.json at the project root.
// The file is optional; every key has a default. Keys can be overridden
// from the environment with the FEATUREROUTES_ prefix (dots become
// underscores, e.g. FEATUREROUTES_DEV_PORT), and DEBUG_FEATURE_ROUTES
// toggles debug output.
//
// # Configuration File Structure
//
//	{
//	  "appDir": "app",
//	  "routesDir": "routes",
//	  "sharedDomains": ["shared"],
//	  "extensions": ["js", "jsx", "ts", "tsx", "md", "mdx"],
//	  "indexNames": ["index"],
//	  "ignoredRouteFiles": ["**/*.test.tsx"],
//	  "concurrency": 4,
//	  "debug": false,
//	  "dev": {
//	    "host": "localhost",
//	    "port": 3100,
//	    "debounce": "100ms"
//	  },
//	  "publish": {
//	    "bucket": "my-app-assets",
//	    "key": "routes/manifest.json",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromDir(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("App:", cfg.AppPath())
package config
