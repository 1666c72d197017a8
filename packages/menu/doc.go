// Package menu runs the interactive namespace picker and request loop.
//
// Input is read line by line. "q" quits, a number selects an entry and
// anything else is reported and asked again. The loop is synchronous: the
// next menu is only shown once the current dispatch has finished.
package menu
