package xclib

// Builtin is the registry of functionals shipped with the library.
var Builtin = newRegistry(builtinDefinitions()...)

var (
	refDirac = Reference{
		Text: "P. A. M. Dirac, Math. Proc. Cambridge Philos. Soc. 26, 376 (1930)",
		DOI:  "10.1017/S0305004100016108",
	}
	refBloch = Reference{
		Text: "F. Bloch, Z. Phys. 57, 545 (1929)",
		DOI:  "10.1007/BF01340281",
	}
	refPW92 = Reference{
		Text: "J. P. Perdew and Y. Wang, Phys. Rev. B 45, 13244 (1992)",
		DOI:  "10.1103/PhysRevB.45.13244",
	}
	refGill96 = Reference{
		Text: "P. M. W. Gill, R. D. Adamson, and J. A. Pople, Mol. Phys. 88, 1005 (1996)",
		DOI:  "10.1080/00268979609484488",
	}
	refToulouse04 = Reference{
		Text: "J. Toulouse, A. Savin, and H.-J. Flad, Int. J. Quantum Chem. 100, 1047 (2004)",
		DOI:  "10.1002/qua.20259",
	}
	refPBE = Reference{
		Text: "J. P. Perdew, K. Burke, and M. Ernzerhof, Phys. Rev. Lett. 77, 3865 (1996)",
		DOI:  "10.1103/PhysRevLett.77.3865",
	}
	refB88 = Reference{
		Text: "A. D. Becke, Phys. Rev. A 38, 3098 (1988)",
		DOI:  "10.1103/PhysRevA.38.3098",
	}
	refMS0 = Reference{
		Text: "J. Sun, B. Xiao, and A. Ruzsinszky, J. Chem. Phys. 137, 051101 (2012)",
		DOI:  "10.1063/1.4742312",
	}
	refKirzhnits = Reference{
		Text: "D. A. Kirzhnits, Sov. Phys. JETP 5, 64 (1957)",
	}
	refPBE0 = Reference{
		Text: "C. Adamo and V. Barone, J. Chem. Phys. 110, 6158 (1999)",
		DOI:  "10.1063/1.478522",
	}
	refRinke05 = Reference{
		Text: "P. Rinke, A. Qteish, J. Neugebauer, C. Freysoldt, and M. Scheffler, New J. Phys. 7, 126 (2005)",
		DOI:  "10.1088/1367-2630/7/1/126",
	}
	refYanai04 = Reference{
		Text: "T. Yanai, D. P. Tew, and N. C. Handy, Chem. Phys. Lett. 393, 51 (2004)",
		DOI:  "10.1016/j.cplett.2004.06.011",
	}
	refOMC = Reference{
		Text: "E. Orestes, T. Marcasso, and K. Capelle, Phys. Rev. A 68, 022105 (2003)",
		DOI:  "10.1103/PhysRevA.68.022105",
	}
)

// Functional numbers of the built-in set.
const (
	LDAX           = 1
	LDACPW         = 12
	LDACPWMod      = 13
	LDAXErf        = 546
	GGAXPBE        = 101
	GGAXB88        = 106
	GGACPBE        = 130
	MGGAXMS0       = 221
	MGGAKGEA2      = 627
	HybLDAXCLDA0   = 177
	HybLDAXCCAMLDA = 178
	HybGGAXCPBEH   = 406
	LCAOMC         = 301
)

func builtinDefinitions() []*definition {
	return []*definition{
		{
			info: Info{
				Number: LDAX, Name: "lda_x", Description: "Slater exchange",
				Kind: Exchange, Family: FamilyLDA, Flags: HaveAll,
				Refs: []Reference{refDirac, refBloch},
			},
			energy: energyLDAX,
		},
		{
			info: Info{
				Number: LDACPW, Name: "lda_c_pw", Description: "Perdew & Wang",
				Kind: Correlation, Family: FamilyLDA, Flags: HaveAll,
				Refs: []Reference{refPW92},
			},
			energy: energyPW,
		},
		{
			info: Info{
				Number: LDACPWMod, Name: "lda_c_pw_mod", Description: "Perdew & Wang (modified)",
				Kind: Correlation, Family: FamilyLDA, Flags: HaveAll,
				Refs: []Reference{refPW92},
			},
			energy: energyPWMod,
		},
		{
			info: Info{
				Number: LDAXErf, Name: "lda_x_erf", Description: "Attenuated Slater exchange (erf)",
				Kind: Exchange, Family: FamilyLDA, Flags: HaveAll,
				Refs: []Reference{refGill96, refToulouse04},
			},
			omega:  0.3,
			energy: energyLDAXErf,
		},
		{
			info: Info{
				Number: GGAXPBE, Name: "gga_x_pbe", Description: "Perdew, Burke & Ernzerhof exchange",
				Kind: Exchange, Family: FamilyGGA, Flags: HaveAll,
				Refs: []Reference{refPBE},
			},
			energy: energyPBEX,
		},
		{
			info: Info{
				Number: GGAXB88, Name: "gga_x_b88", Description: "Becke 88 exchange",
				Kind: Exchange, Family: FamilyGGA, Flags: HaveAll,
				Refs: []Reference{refB88},
			},
			energy: energyB88,
		},
		{
			info: Info{
				Number: GGACPBE, Name: "gga_c_pbe", Description: "Perdew, Burke & Ernzerhof correlation",
				Kind: Correlation, Family: FamilyGGA, Flags: HaveAll,
				Refs: []Reference{refPBE},
			},
			energy: energyPBEC,
		},
		{
			info: Info{
				Number: MGGAXMS0, Name: "mgga_x_ms0", Description: "MS exchange of Sun, Xiao, and Ruzsinszky",
				Kind: Exchange, Family: FamilyMGGA, Flags: HaveExc | HaveVxc | HaveFxc | NeedsTau,
				Refs: []Reference{refMS0},
			},
			energy: energyMS0,
		},
		{
			info: Info{
				Number: MGGAKGEA2, Name: "mgga_k_gea2", Description: "Second-order gradient expansion of the kinetic energy",
				Kind: Kinetic, Family: FamilyMGGA, Flags: HaveExc | HaveVxc | HaveFxc | NeedsLaplacian,
				Refs: []Reference{refKirzhnits},
			},
			energy: energyGEA2,
		},
		{
			info: Info{
				Number: HybLDAXCLDA0, Name: "hyb_lda_xc_lda0", Description: "LDA hybrid exchange (LDA0)",
				Kind: ExchangeCorrelation, Family: FamilyHybLDA, Flags: HaveAll,
				Refs: []Reference{refRinke05},
			},
			hyb:   HybHybrid,
			alpha: 0.25,
			exx:   0.25,
			aux:   []auxRef{{id: LDAX, coef: 0.75}, {id: LDACPWMod, coef: 1}},
		},
		{
			info: Info{
				Number: HybLDAXCCAMLDA, Name: "hyb_lda_xc_cam_lda0", Description: "CAM version of LDA0",
				Kind: ExchangeCorrelation, Family: FamilyHybLDA, Flags: HaveAll,
				Refs: []Reference{refRinke05, refYanai04},
			},
			hyb:   HybCAM,
			omega: 1.0 / 3,
			alpha: 0.5,
			beta:  -0.25,
			aux: []auxRef{
				{id: LDAX, coef: 0.5},
				{id: LDAXErf, coef: 0.25, omega: 1.0 / 3},
				{id: LDACPWMod, coef: 1},
			},
		},
		{
			info: Info{
				Number: HybGGAXCPBEH, Name: "hyb_gga_xc_pbeh", Description: "PBEH (PBE0)",
				Kind: ExchangeCorrelation, Family: FamilyHybGGA, Flags: HaveAll,
				Refs: []Reference{refPBE0},
			},
			hyb:   HybHybrid,
			alpha: 0.25,
			exx:   0.25,
			aux:   []auxRef{{id: GGAXPBE, coef: 0.75}, {id: GGACPBE, coef: 1}},
		},
		{
			info: Info{
				Number: LCAOMC, Name: "lca_omc", Description: "Orestes, Marcasso & Capelle",
				Kind: Exchange, Family: FamilyLCA, Flags: HaveExc | HaveVxc,
				Refs: []Reference{refOMC},
			},
		},
	}
}
