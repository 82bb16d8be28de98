package main

const configTemplate = `# Pickup Session
# ==============
# This file describes who is playing tonight and how teams are formed.

# Session settings. Everything here is optional.
session:
  name: Thursday Club Night

  # Number of teams for "pickup teams split". Defaults to 2.
  team_count: 2

  # Names for the teams, in order. Teams without a name are called
  # A, B, C and so on.
  team_names: [Red, Blue]

  # Match type for "pickup tournament create": MS, WS, XD, MD or WD.
  # When omitted, an all-female roster plays WS and anything else MS.
  # Doubles types (XD, MD, WD) play the pairs listed below.
  # match_type: XD

# Balancer tuning. Zero or missing values use the defaults shown.
balance:
  # strategy: exhaustive     # Force exhaustive or greedy for two teams
  exhaustive_limit: 25       # Largest roster searched exhaustively for two teams
  max_swap_passes: 200       # Improvement passes when splitting into 3+ teams
  skill_spread_warning: 5    # Warn when team skill totals differ by more than this

# Players. Gender is male or female (m/f also work). Skill runs from 1 to 10;
# values outside that range are clamped. Set active: false for anyone sitting
# out tonight. Each player gets a stable id derived from their name unless
# one is given.
players:
  - name: Alice
    gender: female
    skill: 7
  - name: Bob
    gender: male
    skill: 6
  - name: Carol
    gender: female
    skill: 5
  - name: Dave
    gender: male
    skill: 8
  - name: Erin
    gender: female
    skill: 4
  - name: Frank
    gender: male
    skill: 5
    active: false

# Pairs for doubles tournaments. Each player can be in at most one pair.
pairs:
  - players: [Alice, Dave]
    name: Smash Bros
  - players: [Carol, Bob]
`
