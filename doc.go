// Package smartcube is the core of a smart-cube companion app.
//
// It has two independent parts:
//
//   - a codec between 54-character Kociemba facelet strings and a piece
//     permutation/orientation State (Decode, Encode, State.Validate)
//   - an orientation Calibrator that turns raw gyro quaternions into
//     display orientations relative to the pose at connect time
//
// Session ties both to a stream of device events (moves, facelet
// snapshots, gyro samples, battery and hardware details) and pushes the
// results to StateSink and OrientationSink consumers. The GoCube
// Bluetooth adapter lives in internal/gocube.
//
// # Facelets
//
// A facelet string lists the stickers of the faces U, R, F, D, L, B in that
// order, each face read row by row:
//
//	s, err := smartcube.Decode("UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s.IsSolved()) // true
//
// # Orientation
//
//	cal := smartcube.NewCalibrator()
//	q, emit, err := cal.Observe(sample)
//	if err == nil && emit {
//	    render(q)
//	}
//
// The first sample after NewCalibrator or Reset is shown as DefaultHome.
//
// # Simulation
//
// Cube is a sticker-level model that works without a device:
//
//	cube := smartcube.NewCube()
//	cube.Apply(smartcube.SexyMove...)
//	fmt.Println(cube.FaceletString(), cube.Phase())
package smartcube
