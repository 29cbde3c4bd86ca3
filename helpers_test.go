package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"room_air_calc/roomair"
)

// 2節点の室（節点aに外壁と制御点、節点bに照明）
const testConfigYAML = `
log_level: warn
interval: 15m
steps: 4
output:
  csv: false
model:
  zone_air_solution_algorithm: EulerMethod
  system_nodes: [inlet, return]
  internal_gains: [lights]
  airflow_network:
    nodes: [node_a, node_b]
    links:
      - {name: opening, from: node_a, to: node_b}
  zones:
    - name: room
      volume: 100
      floor_area: 40
      kind: controlled
      inlet_nodes: [inlet]
      equipment:
        - {name: ptac, type: "ZoneHVAC:PackagedTerminalAirConditioner", supply_node: inlet, return_node: return}
      surfaces:
        - {name: ext_wall, area: 50, class: wall}
        - {name: partition, area: 10, class: wall}
      control_node: a
      air_nodes:
        - name: a
          network_node: node_a
          volume_fraction: 0.7
          surfaces: [ext_wall]
          equipment:
            - {name: ptac, supply_fraction: 0.5, return_fraction: 0.5}
        - name: b
          network_node: node_b
          volume_fraction: 0.3
          surfaces: [partition]
          gains:
            - {device: lights, fraction: 1.0}
          equipment:
            - {name: ptac, supply_fraction: 0.5, return_fraction: 0.5}
`

const testScenarioCSV = `step,object,name,field,value
0,surface,ext_wall,h_conv_in,3
0,surface,ext_wall,temp_in,10
0,surface,partition,h_conv_in,3
0,surface,partition,temp_in,23
0,gain,lights,convection,200
0,equipment,ptac,sensible,-100
2,surface,ext_wall,temp_in,30
`

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := parseConfig(strings.NewReader(testConfigYAML))
	require.NoError(t, err)
	return cfg
}

func testModel(t *testing.T, cfg *Config) *roomair.Model {
	t.Helper()
	m, err := roomair.NewModel(cfg.Model)
	require.NoError(t, err)
	return m
}

func testScenario(t *testing.T, m *roomair.Model, metrics *Metrics) *Scenario {
	t.Helper()
	records, err := readBoundaryRecords(strings.NewReader(testScenarioCSV))
	require.NoError(t, err)
	sc, err := NewScenario(m, records, metrics)
	require.NoError(t, err)
	return sc
}
