// Package report renders pipeline events and the final summary on the
// console.
//
// Lines carry a status prefix and are coloured by level with
// fatih/color; colour is disabled automatically when the output is not
// a terminal. The summary is a tablewriter table.
package report
