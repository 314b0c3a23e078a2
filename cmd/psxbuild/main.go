// Command psxbuild packs a directory tree described by a YAML project
// file into a PlayStation-era ISO9660/CD-XA disc image.
package main

import "github.com/kestrelcd/psxiso/cmd/psxbuild/cmd"

func main() {
	cmd.Execute()
}
