package main

import "agelink_backend/internal/app"

func main() {
	app.Run()
}
