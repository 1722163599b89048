// Package model provides the simulation model variants behind one contract.
//
// Every variant implements [Model]:
//
//   - [EconomicA]: weighted aggregate PKB over ten bound series
//   - [EconomicB]: fixed-weight linear combination of five bound series
//   - [AgentBased]: stochastic agents perturbed once per step
//
// Dataset-bound variants take their horizon from the LATA series and hold
// every named array at exactly that length once [Model.Bind] succeeds.
// [AgentBased] is data independent and rejects Bind.
//
// # Example
//
//	reg := model.NewRegistry(model.DefaultAgentConfig())
//	m, _ := reg.New("EconomicModelB")
//	_ = m.Bind(tbl)
//	_ = m.Run()
//	fmt.Print(report.TSV(m.Table()))
//
// Models are not safe for concurrent use.
package model
