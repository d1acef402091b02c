// Command contentkit converts Word content sheets to Excel and merges the
// per-language content into the audio-guide track list.
package main

import "github.com/klytics/contentkit/cmd"

func main() {
	cmd.Execute()
}
