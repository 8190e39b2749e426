// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// The watch example prints network interface changes for 30 seconds,
// then stops watching and waits another 30 seconds so you can confirm
// no further callbacks fire.
package main

import (
	"fmt"
	"log"
	"time"

	"netwatcher.go.dev/netwatcher"
)

func main() {
	fmt.Println("Watching for changes for 30 seconds...")

	handle, err := netwatcher.WatchInterfaces(func(update netwatcher.Update) {
		fmt.Println("Interface update!")
		fmt.Printf("State: %+v\n", update.Interfaces)
		fmt.Printf("Diff: %+v\n", update.Diff)
	}, netwatcher.WithLogf(log.Printf))
	if err != nil {
		log.Fatal(err)
	}

	time.Sleep(30 * time.Second)

	handle.Close()
	fmt.Println("Stopped watching! Program will end in 30 seconds.")

	time.Sleep(30 * time.Second)
}
