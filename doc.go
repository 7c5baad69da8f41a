/*
Package bytetrack implements the ByteTrack multi-object tracking algorithm:
a two-stage IoU association cascade over high- and low-confidence detections,
backed by a constant-velocity Kalman filter that predicts each track's box
geometry between frames.

The package has no opinion on where detections come from or where tracks go
next. Callers feed per-frame detection matrices into (*BYTETracker).Update
and receive back the set of currently active, confirmed tracks.
*/
package bytetrack
