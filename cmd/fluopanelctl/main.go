// Command fluopanelctl hosts the coordinator process for a
// Fluopanel-based application: window and popover lifecycle, monitor
// tracking, and the external event socket, wired together from the
// engine packages.
package main

func main() {
	Execute()
}
