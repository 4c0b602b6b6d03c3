// gridinfo builds grids from YAML descriptions and reports on them.
package main

func main() {
	Execute()
}
