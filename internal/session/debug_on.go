//go:build debug

package session

const checkInvariants = true
