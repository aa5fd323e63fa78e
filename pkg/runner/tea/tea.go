// Package teaui is the interactive terminal calendar behind `agenda ui`.
package teaui
