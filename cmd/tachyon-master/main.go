// Command tachyon-master runs the metadata master.
package main

import "github.com/tachyon-project/tachyon-master/cmd"

func main() {
	cmd.Execute()
}
