/*
go-pitchtrack tracks players across the frames of a football video from the
bounding boxes produced by an object detector, keeps the position history of
every player and turns it into motion statistics and a positional heatmap.

The core is frame sequential.  A Session owns the identity registry and the
trajectory store and is not safe for concurrent use, programs that run the
detector on its own goroutine feed frames through a Runner which serialises
every call onto a single goroutine.

See example code and usage in the examples subdirectory.
*/
package pitchtrack
