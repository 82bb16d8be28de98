package main

import "github.com/charmbracelet/lipgloss"

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func okMark() string   { return okStyle.Render("✓") }
func warnMark() string { return warnStyle.Render("⚠") }
func failMark() string { return failStyle.Render("✗") }
