// Package awareness ties sensor fusion and object detection together.
//
// An Awareness owns one fusion registry and one detector. Sensor readings
// accumulate across ProcessSensors calls, while each AnalyzeEnvironment call
// replaces the environment state entirely:
//
//	a := awareness.New()
//	fused, err := a.ProcessSensors(map[string]fusion.Reading{
//		"lidar": fusion.Vector(1, 1),
//		"radar": fusion.Vector(3, 3),
//	})
//	// fused.Data == [2 2]
//
//	state := a.AnalyzeEnvironment(img)
//	// state.ObjectsDetected is the external contour count of img
package awareness
