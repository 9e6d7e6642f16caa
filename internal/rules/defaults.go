package rules

const defaultTableYAML = `
version: 1
category_weights:
  default:
    contact: 1.0
    power: 1.0
    speed: 1.0
    agility: 1.0
    strength: 1.0
    arm_strength: 1.0
    accuracy: 1.0
    command: 1.0
    receiving: 1.0
    glove: 1.0
  by_evaluation_type:
    hitting:
      contact: 0.6
      power: 0.4
    pitching:
      command: 0.65
      arm_strength: 0.35
    athletic:
      speed: 0.35
      agility: 0.25
      power: 0.25
      strength: 0.15
    catcher:
      receiving: 1.0
  by_age_group:
    6u:
      hitting:
        contact: 0.8
        power: 0.2
    8u:
      hitting:
        contact: 0.75
        power: 0.25
enum_points:
  default:
    A: 100
    B: 75
    C: 50
    D: 25
  by_metric_key:
    framing_grade:
      A: 100
      B: 80
      C: 55
      D: 30
`
