package main

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("205")
	muted  = lipgloss.Color("241")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("160")).
			Padding(0, 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	selectedCardStyle = cardStyle.BorderForeground(accent)

	nameStyle        = lipgloss.NewStyle().Bold(true)
	priceStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	availableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	unavailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	dimStyle         = lipgloss.NewStyle().Foreground(muted)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().Width(13).Foreground(muted)
)
