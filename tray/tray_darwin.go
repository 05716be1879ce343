//go:build darwin

package tray

import (
	"os/exec"
	"sync"

	"github.com/energye/systray"
	"golang.design/x/hotkey/mainthread"

	"hotkeylistener/log"
)

var (
	menuMu     sync.Mutex
	mSuspend   *systray.MenuItem
	mHotkeys   *systray.MenuItem
	hotkeyRows []*systray.MenuItem
	mLogin     *systray.MenuItem
)

func Init() <-chan struct{} {
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func updateState(live []string, isSuspended bool) {
	menuMu.Lock()
	defer menuMu.Unlock()
	// Nothing to update until onReady has built the menu.
	if mHotkeys == nil {
		return
	}

	if isSuspended {
		systray.SetIcon(iconSuspendedHi)
		mSuspend.Check()
	} else {
		systray.SetTemplateIcon(iconActiveHi, iconActive)
		mSuspend.Uncheck()
	}

	for i, row := range hotkeyRows {
		if i < len(live) {
			row.SetTitle(live[i])
			row.Show()
		} else {
			row.Hide()
		}
	}
	for i := len(hotkeyRows); i < len(live); i++ {
		row := mHotkeys.AddSubMenuItem(live[i], live[i])
		row.Disable()
		hotkeyRows = append(hotkeyRows, row)
	}
}

func updateTooltip(msg string) {
	menuMu.Lock()
	ready := mHotkeys != nil
	menuMu.Unlock()
	if ready {
		systray.SetTooltip(msg)
	}
}

func onReady() {
	systray.SetTemplateIcon(iconActiveHi, iconActive)
	systray.SetTooltip(tooltip())

	menuMu.Lock()
	mHotkeys = systray.AddMenuItem("Hotkeys", "Registered hotkeys")

	systray.AddSeparator()

	mSuspend = systray.AddMenuItemCheckbox("Suspend Hotkeys", "Unregister every hotkey until resumed", false)
	mSuspend.Click(func() {
		if suspendCb != nil {
			suspendCb(!mSuspend.Checked())
		}
	})

	mLogin = systray.AddMenuItemCheckbox("Start on Login", "Launch hotkeylistener when you log in", loginOn)
	mLogin.Click(func() {
		want := !mLogin.Checked()
		if loginCb != nil {
			if err := loginCb(want); err != nil {
				log.Warnf("start on login: %v", err)
				return
			}
		}
		if want {
			mLogin.Check()
		} else {
			mLogin.Uncheck()
		}
	})

	mLogs := systray.AddMenuItem("Open Log Folder", "Show the diagnostics and events logs")
	mLogs.Click(func() {
		exec.Command("open", log.Dir()).Start()
	})

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit hotkeylistener")
	mQuit.Click(func() { Quit() })
	systray.CreateMenu()
	menuMu.Unlock()

	stateMu.Lock()
	live, isSuspended := append([]string(nil), hotkeys...), suspended
	stateMu.Unlock()
	updateState(live, isSuspended)
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}
