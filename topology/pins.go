// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package topology

// pinTable maps each port number (block<<4 | bit) to its package pin number,
// indexed by Package. A pin number of -1 means the port is not bonded out.
var pinTable = [PORT_COUNT][PACKAGE_COUNT]int{
	{134, 110}, // P00
	{135, 111}, // P01
	{136, 112}, // P02
	{137, 113}, // P03
	{138, 114}, // P04
	{8, 8},     // P05
	{9, 9},     // P06
	{10, 10},   // P07
	{11, 11},   // P08
	{12, 12},   // P09
	{-1, -1},   // P0A
	{-1, -1},   // P0B
	{-1, -1},   // P0C
	{-1, -1},   // P0D
	{-1, -1},   // P0E
	{-1, -1},   // P0F
	{90, 74},   // P10
	{91, 75},   // P11
	{92, 76},   // P12
	{93, 77},   // P13
	{94, 78},   // P14
	{95, 79},   // P15
	{96, 80},   // P16
	{97, 81},   // P17
	{98, 82},   // P18
	{99, 83},   // P19
	{100, 84},  // P1A
	{101, 85},  // P1B
	{102, 86},  // P1C
	{103, 87},  // P1D
	{104, 88},  // P1E
	{105, 89},  // P1F
	{127, 103}, // P20
	{126, 102}, // P21
	{125, 101}, // P22
	{124, 100}, // P23
	{123, 99},  // P24
	{122, 98},  // P25
	{121, 97},  // P26
	{120, 96},  // P27
	{119, 95},  // P28
	{118, 94},  // P29
	{-1, -1},   // P2A
	{-1, -1},   // P2B
	{-1, -1},   // P2C
	{-1, -1},   // P2D
	{-1, -1},   // P2E
	{-1, -1},   // P2F
	{28, -1},   // P30
	{29, -1},   // P31
	{30, -1},   // P32
	{31, -1},   // P33
	{32, -1},   // P34
	{33, -1},   // P35
	{34, 26},   // P36
	{35, 27},   // P37
	{36, 28},   // P38
	{37, 29},   // P39
	{38, 30},   // P3A
	{39, 31},   // P3B
	{40, 32},   // P3C
	{41, 33},   // P3D
	{42, 34},   // P3E
	{43, 35},   // P3F
	{46, 38},   // P40
	{47, 39},   // P41
	{48, 40},   // P42
	{49, 41},   // P43
	{50, 42},   // P44
	{51, 43},   // P45
	{55, 47},   // P46
	{56, 48},   // P47
	{58, 50},   // P48
	{59, 51},   // P49
	{60, 52},   // P4A
	{61, 53},   // P4B
	{62, 54},   // P4C
	{63, 55},   // P4D
	{64, 56},   // P4E
	{-1, -1},   // P4F
	{13, 13},   // P50
	{14, 14},   // P51
	{15, 15},   // P52
	{16, 16},   // P53
	{17, 17},   // P54
	{18, 18},   // P55
	{19, 19},   // P56
	{20, 20},   // P57
	{21, 21},   // P58
	{22, 22},   // P59
	{23, 23},   // P5A
	{24, 24},   // P5B
	{25, -1},   // P5C
	{26, -1},   // P5D
	{-1, -1},   // P5E
	{-1, -1},   // P5F
	{169, 139}, // P60
	{168, 138}, // P61
	{167, 137}, // P62
	{-1, -1},   // P63
	{-1, -1},   // P64
	{-1, -1},   // P65
	{-1, -1},   // P66
	{-1, -1},   // P67
	{-1, -1},   // P68
	{-1, -1},   // P69
	{-1, -1},   // P6A
	{-1, -1},   // P6B
	{-1, -1},   // P6C
	{-1, -1},   // P6D
	{-1, -1},   // P6E
	{-1, -1},   // P6F
	{65, 57},   // P70
	{66, 58},   // P71
	{67, 59},   // P72
	{68, 60},   // P73
	{69, 61},   // P74
	{70, 62},   // P75
	{71, 63},   // P76
	{72, 64},   // P77
	{73, 65},   // P78
	{74, 66},   // P79
	{75, 67},   // P7A
	{76, -1},   // P7B
	{77, -1},   // P7C
	{78, -1},   // P7D
	{79, -1},   // P7E
	{80, -1},   // P7F
	{174, 142}, // P80
	{175, 143}, // P81
	{130, 106}, // P82
	{131, 107}, // P83
	{-1, -1},   // P84
	{-1, -1},   // P85
	{-1, -1},   // P86
	{-1, -1},   // P87
	{-1, -1},   // P88
	{-1, -1},   // P89
	{-1, -1},   // P8A
	{-1, -1},   // P8B
	{-1, -1},   // P8C
	{-1, -1},   // P8D
	{-1, -1},   // P8E
	{-1, -1},   // P8F
	{139, -1},  // P90
	{140, -1},  // P91
	{141, -1},  // P92
	{142, -1},  // P93
	{143, -1},  // P94
	{144, -1},  // P95
	{-1, -1},   // P96
	{-1, -1},   // P97
	{-1, -1},   // P98
	{-1, -1},   // P99
	{-1, -1},   // P9A
	{-1, -1},   // P9B
	{-1, -1},   // P9C
	{-1, -1},   // P9D
	{-1, -1},   // P9E
	{-1, -1},   // P9F
	{2, 2},     // PA0
	{3, 3},     // PA1
	{4, 4},     // PA2
	{5, 5},     // PA3
	{6, 6},     // PA4
	{7, 7},     // PA5
	{-1, -1},   // PA6
	{-1, -1},   // PA7
	{-1, -1},   // PA8
	{-1, -1},   // PA9
	{-1, -1},   // PAA
	{-1, -1},   // PAB
	{-1, -1},   // PAC
	{-1, -1},   // PAD
	{-1, -1},   // PAE
	{-1, -1},   // PAF
	{110, -1},  // PB0
	{111, -1},  // PB1
	{112, -1},  // PB2
	{113, -1},  // PB3
	{114, -1},  // PB4
	{115, -1},  // PB5
	{116, -1},  // PB6
	{117, -1},  // PB7
	{-1, -1},   // PB8
	{-1, -1},   // PB9
	{-1, -1},   // PBA
	{-1, -1},   // PBB
	{-1, -1},   // PBC
	{-1, -1},   // PBD
	{-1, -1},   // PBE
	{-1, -1},   // PBF
	{145, 115}, // PC0
	{146, 116}, // PC1
	{147, 117}, // PC2
	{148, 118}, // PC3
	{149, 119}, // PC4
	{150, 120}, // PC5
	{151, 121}, // PC6
	{152, 122}, // PC7
	{153, 123}, // PC8
	{154, 124}, // PC9
	{155, 125}, // PCA
	{158, 128}, // PCB
	{159, 129}, // PCC
	{160, 130}, // PCD
	{161, 131}, // PCE
	{162, 132}, // PCF
	{163, 133}, // PD0
	{164, 134}, // PD1
	{165, 135}, // PD2
	{166, 136}, // PD3
	{-1, -1},   // PD4
	{-1, -1},   // PD5
	{-1, -1},   // PD6
	{-1, -1},   // PD7
	{-1, -1},   // PD8
	{-1, -1},   // PD9
	{-1, -1},   // PDA
	{-1, -1},   // PDB
	{-1, -1},   // PDC
	{-1, -1},   // PDD
	{-1, -1},   // PDE
	{-1, -1},   // PDF
	{84, 68},   // PE0
	{-1, -1},   // PE1
	{86, 70},   // PE2
	{87, 71},   // PE3
	{-1, -1},   // PE4
	{-1, -1},   // PE5
	{-1, -1},   // PE6
	{-1, -1},   // PE7
	{-1, -1},   // PE8
	{-1, -1},   // PE9
	{-1, -1},   // PEA
	{-1, -1},   // PEB
	{-1, -1},   // PEC
	{-1, -1},   // PED
	{-1, -1},   // PEE
	{-1, -1},   // PEF
	{81, -1},   // PF0
	{82, -1},   // PF1
	{83, -1},   // PF2
	{170, -1},  // PF3
	{171, -1},  // PF4
	{172, 140}, // PF5
	{128, 104}, // PF6
	{-1, -1},   // PF7
	{-1, -1},   // PF8
	{-1, -1},   // PF9
	{-1, -1},   // PFA
	{-1, -1},   // PFB
	{-1, -1},   // PFC
	{-1, -1},   // PFD
	{-1, -1},   // PFE
	{-1, -1},   // PFF
}
