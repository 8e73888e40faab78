package window

import "fmt"

func ExampleCosine() {
	w, _ := Cosine(4)
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.75 0.75 0.00
}

func ExampleEnergy() {
	w, _ := Cosine(9)
	fmt.Printf("%.3f\n", Energy(w))
	// Output:
	// 3.000
}
