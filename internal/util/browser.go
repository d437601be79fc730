package util

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrNoOpener 当前平台没有可用的打开方式
var ErrNoOpener = errors.New("no url opener available")

// openers 按优先级返回平台的候选命令
func openers(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 兼容 Windows 7，explorer 作为降级
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		return [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
			{"x-www-browser", url},
		}
	}
}

// OpenURL 用默认浏览器打开地址，依次尝试候选命令
func OpenURL(url string) error {
	var lastErr error
	for _, argv := range openers(runtime.GOOS, url) {
		bin, err := exec.LookPath(argv[0])
		if err != nil {
			continue
		}
		if err := exec.Command(bin, argv[1:]...).Start(); err != nil {
			lastErr = fmt.Errorf("%s: %w", argv[0], err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return ErrNoOpener
}
