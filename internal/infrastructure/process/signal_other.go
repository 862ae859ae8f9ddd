//go:build !unix

package process

const reloadSupported = false

func sendReload(pid int) error {
	return ErrSignalsUnsupported
}
