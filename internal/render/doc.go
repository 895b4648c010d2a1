// Package render compiles a timeline and a delivery preset into an
// executable transcoding plan.
//
// Compile is a pure function of its inputs: identical arguments always
// produce byte-identical argument sequences, so plans can be diffed,
// cached, and replayed. The compiler consumes the timeline in track order
// and clips in start-time order, emits per-clip trim and filter stages,
// concatenates per-kind intermediates, and closes with the preset's encode
// parameters and the resolved output path.
package render
