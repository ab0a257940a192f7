/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-20 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-26 17:40:03
 * @FilePath: \go-livemirror\internal\cli\prefs.go
 * @Description: prefs 子命令 - 读取与修改显示偏好
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/kamalyes/go-livemirror/models"
	"github.com/kamalyes/go-livemirror/prefs"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
	"github.com/spf13/cobra"
)

func newPrefsCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print all preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := st.config()
			if err != nil {
				return err
			}
			mgr, closeStore := newPrefsManager(cfg.Prefs, cfg.newLogger())
			defer closeStore()
			printPrefs(cmd.Context(), mgr, cmd.OutOrStdout())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set theme, heartbeatBarTheme or styleElapsedTime",
		Example: `  livemirror prefs set theme dark
  livemirror prefs set heartbeatBarTheme bottom`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.config()
			if err != nil {
				return err
			}
			mgr, closeStore := newPrefsManager(cfg.Prefs, cfg.newLogger())
			defer closeStore()
			if err := setPref(cmd.Context(), mgr, args[0], args[1]); err != nil {
				return err
			}
			printPrefs(cmd.Context(), mgr, cmd.OutOrStdout())
			return nil
		},
	})
	return cmd
}

// setPref 按键名写入偏好
func setPref(ctx context.Context, mgr *prefs.Manager, key, value string) error {
	switch key {
	case prefs.KeyTheme:
		return mgr.SetTheme(ctx, prefs.Theme(value))
	case prefs.KeyHeartbeatBarTheme:
		return mgr.SetHeartbeatBarTheme(ctx, prefs.HeartbeatBarTheme(value))
	case prefs.KeyStyleElapsedTime:
		return mgr.SetElapsedTimeStyle(ctx, prefs.ElapsedTimeStyle(value))
	default:
		return errorx.NewError(models.ErrTypeInvalidPreference, value, key)
	}
}

func printPrefs(ctx context.Context, mgr *prefs.Manager, out io.Writer) {
	fmt.Fprintf(out, "%s=%s\n", prefs.KeyTheme, mgr.Theme(ctx))
	fmt.Fprintf(out, "%s=%s\n", prefs.KeyHeartbeatBarTheme, mgr.HeartbeatBarTheme(ctx))
	fmt.Fprintf(out, "%s=%s\n", prefs.KeyStyleElapsedTime, mgr.ElapsedTimeStyle(ctx))
}
