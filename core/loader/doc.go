// Package loader registers HTTP features on the fiber app.
//
// A feature names itself, reports whether its collaborators are present and
// mounts its routes:
//
//	mgr := loader.NewManager(log)
//	mgr.Register(merge.NewFeature(mergeSvc))
//	mgr.Register(prices.NewFeature(pricesSvc))
//	loaded, err := mgr.LoadAll(app)
//
// Disabled features are skipped and logged; the first Load error aborts.
package loader
