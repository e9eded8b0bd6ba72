// Package cv provides the OpenCV backed collaborators of the drowsiness monitor:
// the camera frame source, the display window, the Haar cascade face detector
// and the eye openness classifier running a trained network through the dnn module.
package cv
