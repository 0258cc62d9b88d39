package main

import "github.com/tdstatement/tdstmt/cmd"

func main() {
	cmd.Execute()
}
