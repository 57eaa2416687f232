// Package automatminer builds automated machine-learning pipelines for
// materials-science property prediction.
//
// A MatPipe composes four stages behind one fit/predict/benchmark
// interface: an AutoFeaturizer turning domain-object columns (compositions,
// structures, band structures, densities of states) into numeric features,
// a DataCleaner handling missing values and encoding, a FeatureReducer
// pruning redundant features, and a learner adaptor fitting a predictor on
// the resulting matrix.
//
// Pipelines are resolved from named presets:
//
//	pipe, err := automatminer.NewMatPipeFromPreset(automatminer.PresetExpress)
//	if err != nil { ... }
//	if err := pipe.Fit(train, "band gap"); err != nil { ... }
//	out, err := pipe.Predict(unseen)
//
// Predictions appear in a new column named "<target> predicted". Fitted
// pipelines round-trip through Save and LoadMatPipe with identical predict
// behavior.
package automatminer
