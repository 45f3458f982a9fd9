//go:build !debug

package session

const checkInvariants = false
