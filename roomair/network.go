package roomair

/*
収束した空気流動網から、節点に接する経路の流入を取り出す。

    Notes:
        経路の流入は反対側の端から来る。From 側の節点は To から From への流量を、
        To 側の節点は From から To への流量を受け取る。
*/
func (s *Simulation) updateLinkFlows(nid NodeID, in *StepInput) {
	node := &s.model.Nodes[nid]
	st := &s.nodes[nid]
	net := &in.Network

	st.SumLinkMCp = 0.0
	st.SumLinkMCpT = 0.0
	st.SumLinkM = 0.0
	st.SumLinkMW = 0.0

	for i, nl := range node.Links {
		flow := net.LinkFlow[nl.Link]
		if nl.Reverse {
			flow = net.LinkFlow2[nl.Link]
		}
		lf := LinkFlow{
			Temp:     net.NodeTemp[nl.Upstream],
			HumRat:   net.NodeHumRat[nl.Upstream],
			MassFlow: flow,
		}
		st.Links[i] = lf

		c_p := psyCpAirFnW(lf.HumRat)
		st.SumLinkMCp += c_p * lf.MassFlow
		st.SumLinkMCpT += c_p * lf.MassFlow * lf.Temp
		st.SumLinkM += lf.MassFlow
		st.SumLinkMW += lf.MassFlow * lf.HumRat
	}
}
